// Package scene is the volume tree that detector geometry is built into.
// It holds solid definitions, media, named volumes and their placements,
// plus the bookkeeping a geometry consumer needs: which volumes are
// sensitive and how volumes are coloured. Volumes are plain values once
// placed; nothing in this package mutates a definition after construction.
package scene
