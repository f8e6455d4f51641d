package scene

import (
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"
)

// Fingerprint returns a hex BLAKE3 digest of the full placement tree:
// names, shapes, media, copy numbers and transforms, plus the sensitive
// registry. Two scenes built from the same description hash identically.
func (s *Scene) Fingerprint() string {
	h := blake3.New()
	fmt.Fprintf(h, "top %s\n", s.top.Name)
	_ = s.Walk(func(path []*Node) error {
		n := path[len(path)-1]
		v := n.Volume
		fmt.Fprintf(h, "%d %s #%d %s medium=%s", len(path), v.Name, n.Copy, n.Transform, v.Medium.Name)
		if v.Solid != nil {
			sol := v.Solid
			fmt.Fprintf(h, " %s %.12g %.12g %.12g %.12g %.12g", sol.Kind, sol.RMin, sol.RMax, sol.HalfLength, sol.PhiStart, sol.PhiEnd)
		}
		fmt.Fprintln(h)
		return nil
	})
	for _, name := range s.sensitive {
		fmt.Fprintf(h, "sensitive %s\n", name)
	}
	return hex.EncodeToString(h.Sum(nil))
}
