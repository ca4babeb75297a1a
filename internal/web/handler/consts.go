package handler

const (
	// BaseLayout is the default path for layout templates.
	BaseLayout = "layouts/base"

	// RootPath is the root path of the route group.
	RootPath = "/"

	// RouterRootPath is the root path within a route group.
	RouterRootPath = "/"

	// ErrNilACDFatalLogMsg is used if app, cfg, db or manager pointer is nil.
	ErrNilACDFatalLogMsg = "app, cfg, db or manager is nil"
)
