package services

// Actor is the resolved identity performing an operation. It is built by the
// transport layer from the platform's auth token; the services never parse
// credentials themselves.
type Actor struct {
	ID            string
	TenantID      string
	IsTenantAdmin bool
}
