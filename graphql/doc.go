// Package graphql adapts the auth engine to schema-based APIs. Rather
// than binding to a specific GraphQL runtime, it exposes the controller
// operations as typed resolver closures and the guards as context
// decorators; wiring them into a schema library's field definitions is
// left to the consuming server.
package graphql
