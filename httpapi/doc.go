// Package httpapi mounts an assembled auth module onto net/http. The set
// of routes served is derived from the module's kind; routes for flows
// the module was not built with simply do not exist, so probing them
// yields 404 rather than a misleading auth error.
package httpapi
