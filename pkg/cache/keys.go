package cache

// LayoutKeyOpts are the options that change a computed layout.
type LayoutKeyOpts struct {
	LayoutType string  `json:"layout_type,omitempty"`
	RankDir    string  `json:"rankdir,omitempty"`
	Width      float64 `json:"width,omitempty"`
	Height     float64 `json:"height,omitempty"`
	NodeGap    float64 `json:"node_gap,omitempty"`
	LevelGap   float64 `json:"level_gap,omitempty"`
}

// ArtifactKeyOpts are the options that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format      string `json:"format"`
	Theme       string `json:"theme,omitempty"`
	Standalone  bool   `json:"standalone,omitempty"`
	Interactive bool   `json:"interactive,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	// LayoutKey is the key for a layout of the graph with the given hash.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string

	// ArtifactKey is the key for an artifact rendered from the layout with
	// the given hash.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces "layout:<sha256>" and "artifact:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey implements [Keyer].
func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
