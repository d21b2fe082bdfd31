// Package userrole assigns roles to user accounts, optionally scoped to a
// branch or distributor. Each assignment records when and by whom it was made.
package userrole
