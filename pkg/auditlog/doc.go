// Package auditlog stores the audit trail: who did what to which resource,
// when and from where. Entries carry no created/updated bookkeeping of their
// own; Metadata is opaque JSON.
package auditlog
