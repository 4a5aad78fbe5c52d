// Package models contains GORM persistence models that map to database tables.
// Domain types carry no ORM tags; each model converts to and from its domain
// aggregate with ToDomain and a <Name>ModelFromDomain constructor.
//
//   - base.go: shared id, timestamp and version columns
//   - admin.go: admin panel accounts
//   - booking.go: session bookings and their payment state
//   - post.go: blog posts and their tags
package models
