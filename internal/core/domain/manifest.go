package domain

// Manifest is a component description loaded from a component.yaml file.
// File paths are relative to Dir.
type Manifest struct {
	Dir       string
	Component Component
	Files     []string
	Dists     []string
	Message   string
}

// InputPaths returns every path whose contents feed a snapshot, in manifest order.
func (m *Manifest) InputPaths() []string {
	paths := make([]string, 0, len(m.Files)+len(m.Dists))
	paths = append(paths, m.Files...)
	paths = append(paths, m.Dists...)
	return paths
}
