// Package externalidentity links user accounts to identities held by
// external providers such as an OIDC issuer. A (provider, subjectId) pair
// belongs to at most one account.
package externalidentity
