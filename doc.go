// Package globalization provides the building blocks for culture-aware
// applications: positional composite formats, a culture registry with
// fallback chains, an atomically swappable translation cache with quality
// graded resolution, and a background issue agent that deduplicates and
// reports globalization defects.
//
// The Hub ties everything together:
//
//	hub, err := globalization.NewHub(globalization.WithDefaultCulture("en"))
//	if err != nil {
//		// Handle error
//	}
//	defer hub.Close()
//
//	fr, _ := hub.Culture("fr-FR")
//	_, _ = hub.LoadYAML(fr, frenchResources)
//
//	m, _ := hub.NewMessage(nil, "Hello {0}, you have {1} items.", "Eve", 1234)
//	res := hub.Translate(m, fr)
//	fmt.Println(res.Text, res.Quality)
//
// Each concern is also usable on its own through the pkg/composite,
// pkg/culture, pkg/translation and pkg/issues packages.
package globalization
