package dto

const (
	// SurfaceLanding is the entry page of the app; no polling happens while the viewer is on it
	SurfaceLanding = "landing"
	// SurfaceHome is where a freshly authenticated viewer lands
	SurfaceHome = "home"
)

// Viewer is the authenticated user together with the surface they are looking at
type Viewer struct {
	UserID  string
	Surface string
}

// OnLanding reports whether the viewer is on the landing surface
func (v Viewer) OnLanding() bool {
	return v.Surface == SurfaceLanding
}
