package mapping

// Build fills a new table for one barrel with N_phi x N_z sector cells,
// mapping copy number ir*N_z+iz to the logical address (ir, 0, iz), and
// adds it to reg. sensor is the sensitive volume inside each sector,
// sector the sector container that carries the copy numbers. The first
// collision aborts the build and nothing is added to reg.
func Build(reg *Registry, barrel int, dims Dims, sensor, sector string) (*Table, error) {
	t := NewTable(barrel, dims, sensor,
		Level{Volume: sensor, Copies: 0},
		Level{Volume: sector, Copies: dims.Azimuth * dims.Beamline},
	)
	for ir := uint32(0); ir < dims.Azimuth; ir++ {
		for iz := uint32(0); iz < dims.Beamline; iz++ {
			if err := t.Insert(CopyNumber(ir, iz, dims.Beamline), Logical{Azimuth: ir, Layer: 0, Beamline: iz}); err != nil {
				return nil, err
			}
		}
	}
	if err := reg.Add(t); err != nil {
		return nil, err
	}
	return t, nil
}

// CopyNumber flattens an (azimuth, beamline) cell index into the copy
// number used for sector placements.
func CopyNumber(ir, iz, sections uint32) uint32 {
	return ir*sections + iz
}
