// Package reqctx carries request-scoped values through context.Context:
// request metadata set by the HTTP middleware and the claims of an
// authenticated doctor.
//
// Handlers pass c.Context() into services, so anything the middleware stores
// here is visible to service-level logging through LogAttrs.
//
// Claims are only present on doctor routes that received a valid token.
// Kiosk requests never carry claims.
package reqctx
