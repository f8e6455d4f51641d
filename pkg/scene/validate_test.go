package scene

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findingsContaining(findings []ValidationError, fragment string) []ValidationError {
	var out []ValidationError
	for _, f := range findings {
		if strings.Contains(f.Message, fragment) {
			out = append(out, f)
		}
	}
	return out
}

func TestValidateCleanScene(t *testing.T) {
	s, _, quarter := ringScene()
	s.RegisterSensitive(quarter.Name)
	findings := Validate(s)
	assert.Empty(t, findings)
	assert.False(t, HasErrors(findings))
}

func TestValidateDuplicateCopy(t *testing.T) {
	s, shell, quarter := ringScene()
	shell.AddNode(quarter, 2, Identity)

	findings := Validate(s)
	require.True(t, HasErrors(findings))
	assert.Len(t, findingsContaining(findings, "copy 2 of Quarter placed more than once"), 1)
}

func TestValidateDuplicateTopCopy(t *testing.T) {
	s, shell, _ := ringScene()
	s.Top().AddNode(shell, 0, TranslateZ(500))
	assert.NotEmpty(t, findingsContaining(Validate(s), "placed more than once"))
}

func TestValidateDuplicateNames(t *testing.T) {
	s, shell, _ := ringScene()
	impostor := NewVolume("Quarter", NewTube("Quarter", 105, 110, 10), copper())
	shell.AddNode(impostor, 9, Identity)
	assert.NotEmpty(t, findingsContaining(Validate(s), "more than one volume definition"))
}

func TestValidateContainment(t *testing.T) {
	tests := []struct {
		name     string
		child    *Solid
		place    Transform
		fragment string
	}{
		{"radially outside", NewTube("C", 95, 105, 10), Identity, "extends radially"},
		{"beyond end", NewTube("C", 101, 102, 10), TranslateZ(45), "extends along z"},
		{"exactly at end", NewTube("C", 101, 102, 10), TranslateZ(40), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New("World", nil)
			shell := NewVolume("Shell", NewTube("Shell", 100, 110, 50), air())
			shell.AddNode(NewVolume("C", tt.child, copper()), 0, tt.place)
			s.Top().AddNode(shell, 0, Identity)

			findings := Validate(s)
			if tt.fragment == "" {
				assert.False(t, HasErrors(findings), "%v", findings)
				return
			}
			assert.NotEmpty(t, findingsContaining(findings, tt.fragment), "%v", findings)
		})
	}
}

func TestValidatePhiContainment(t *testing.T) {
	s := New("World", nil)
	sector := NewVolume("Sector", NewTruncatedTube("Sector", 100, 110, 50, 0, 30, LowCutNormal, HighCutNormal), air())
	wide := NewVolume("Wide", NewTruncatedTube("Wide", 101, 102, 50, 0, 31, LowCutNormal, HighCutNormal), copper())
	narrow := NewVolume("Narrow", NewTruncatedTube("Narrow", 102, 103, 50, 0, 29, LowCutNormal, HighCutNormal), copper())
	sector.AddNode(wide, 0, Identity)
	sector.AddNode(narrow, 0, Identity)
	s.Top().AddNode(sector, 0, Identity)

	findings := findingsContaining(Validate(s), "spans phi")
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0].Message, "Wide")
}

func TestValidateOverlaps(t *testing.T) {
	s, shell, quarter := ringScene()
	// A fifth quarter rotated by 45 degrees cuts into two neighbours.
	shell.AddNode(quarter, 4, RotateZTranslateZ(45, 0))

	overlaps := findingsContaining(Validate(s), "overlaps")
	assert.Len(t, overlaps, 2)
}

func TestValidateTouchingAcrossZero(t *testing.T) {
	s := New("World", nil)
	shell := NewVolume("Shell", NewTube("Shell", 100, 110, 50), air())
	seg := NewVolume("Seg", NewTruncatedTube("Seg", 100, 105, 50, 0, 60, LowCutNormal, HighCutNormal), copper())
	shell.AddNode(seg, 0, RotateZTranslateZ(300, 0))
	shell.AddNode(seg, 1, Identity)
	s.Top().AddNode(shell, 0, Identity)

	assert.False(t, HasErrors(Validate(s)))

	shell.AddNode(seg, 2, RotateZTranslateZ(-30, 0))
	assert.NotEmpty(t, findingsContaining(Validate(s), "overlaps"))
}

func TestValidateWarnings(t *testing.T) {
	s, shell, _ := ringScene()
	flat := NewVolume("Flat", NewTruncatedTube("Flat", 106, 106, 50, 0, 10, LowCutNormal, HighCutNormal), copper())
	shell.AddNode(flat, 0, Identity)
	s.RegisterSensitive("Ghost")

	findings := Validate(s)
	assert.False(t, HasErrors(findings))
	require.Len(t, findings, 2)
	for _, f := range findings {
		assert.Equal(t, SeverityWarning, f.Severity)
	}
	assert.Len(t, findingsContaining(findings, "degenerate"), 1)
	assert.Len(t, findingsContaining(findings, "not present"), 1)
}

func TestValidateUnregisteredMedium(t *testing.T) {
	s, shell, _ := ringScene()
	shell.AddNode(NewVolume("Gold", NewTube("Gold", 106, 107, 10), Medium{Name: "gold"}), 0, Identity)
	assert.NotEmpty(t, findingsContaining(Validate(s), `medium "gold"`))
}

func TestValidationErrorString(t *testing.T) {
	e := ValidationError{Volume: "Shell", Message: "bad", Severity: SeverityError}
	assert.Equal(t, "[error] volume Shell: bad", e.Error())
	w := ValidationError{Message: "meh", Severity: SeverityWarning}
	assert.Equal(t, "[warning] meh", w.Error())
}

func TestFingerprint(t *testing.T) {
	a, _, _ := ringScene()
	b, _, _ := ringScene()
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.Len(t, a.Fingerprint(), 64)

	c, shell, quarter := ringScene()
	shell.AddNode(quarter, 4, RotateZTranslateZ(45, 0))
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())

	b.RegisterSensitive("Quarter")
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())
}
