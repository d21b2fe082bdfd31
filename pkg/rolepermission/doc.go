// Package rolepermission links permissions to roles. A role holds a given
// permission at most once.
package rolepermission
