// Package mapping translates physical placements of sensor volumes into
// logical sensor addresses. Each barrel gets one Table keyed by the
// flattened copy number of its sector placements; a Registry collects the
// tables of a whole build and is handed to digitization downstream.
package mapping
