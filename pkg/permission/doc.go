// Package permission manages permissions, the fine-grained capabilities that
// roles grant. A permission name is an upper snake case token such as
// USER_READ and its domain groups related permissions, e.g. user_management.
package permission
