// Package useraccount manages the people known to the system: employees and
// distributors, their organisational placement and display preferences.
//
// Email addresses are unique across accounts. Accounts are deactivated by
// clearing IsActive rather than deleted when history must be kept; a DELETE
// removes the row outright.
package useraccount
