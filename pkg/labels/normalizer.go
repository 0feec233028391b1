package labels

// Normalize resolves raw classifier labels into display names. Resolution is
// ordered and first-match-wins per field:
//
//  1. the plant label is replaced through the plant table when present there;
//  2. the (canonical plant name, disease label) pair override is applied when
//     one exists; the same raw label can mean different things on different
//     plants;
//  3. otherwise the disease table is consulted;
//  4. otherwise the disease label passes through unchanged.
//
// A disease value that is already a canonical display name is returned as-is,
// which keeps Normalize idempotent when callers hand back its own output.
// matched reports whether any replacement happened; it is diagnostic only and
// must not drive control flow.
func Normalize(plantLabel, diseaseLabel string) (plantName, diseaseName string, matched bool) {
	plantName = plantLabel
	if mapped, ok := plantNames[plantLabel]; ok {
		plantName = mapped
		matched = true
	}

	diseaseName = diseaseLabel
	if diseaseLabel == "" {
		return plantName, diseaseName, matched
	}

	if _, canonical := canonicalDiseaseNames[diseaseLabel]; canonical {
		return plantName, diseaseName, matched
	}

	if override, ok := pairOverrides[pairKey{plantName, diseaseLabel}]; ok {
		return plantName, override, true
	}

	if mapped, ok := diseaseNames[diseaseLabel]; ok {
		return plantName, mapped, true
	}

	return plantName, diseaseName, matched
}

// FirstNonEmpty returns the first non-empty value in priority order. Raw
// candidates arrive from multiple classifier backends that populate different
// field subsets, so field selection is centralized here instead of being
// repeated at call sites.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
