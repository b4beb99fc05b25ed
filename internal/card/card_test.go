package card

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Validate(Default()))
}

func TestGradientStops(t *testing.T) {
	assert.Equal(t, []float64{0, 1}, GradientStops(2))
	assert.Equal(t, []float64{0, 0.25, 0.5, 0.75, 1}, GradientStops(5))
	assert.Equal(t, []float64{0}, GradientStops(1))
	assert.Nil(t, GradientStops(0))
}

func TestParseColor(t *testing.T) {
	cases := []struct {
		in   string
		want color.NRGBA
	}{
		{"#ffffff", color.NRGBA{255, 255, 255, 255}},
		{"#FFF", color.NRGBA{255, 255, 255, 255}},
		{"#4a90e2", color.NRGBA{0x4a, 0x90, 0xe2, 255}},
		{"#00000080", color.NRGBA{0, 0, 0, 128}},
		{"rgba(0, 0, 0, 0.1)", color.NRGBA{0, 0, 0, 26}},
		{"rgb(255,0,10)", color.NRGBA{255, 0, 10, 255}},
		{"white", color.NRGBA{255, 255, 255, 255}},
		{"transparent", color.NRGBA{}},
	}
	for _, tc := range cases {
		got, err := ParseColor(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}

	for _, bad := range []string{"", "#12", "#ggg", "rgba(1,2,3)", "hsl(1,2,3)", "notacolor", "rgb(300,0,0)", "rgb(nan,0,0)", "rgba(0,0,0,NaN)", "rgb(0,+inf,0)"} {
		_, err := ParseColor(bad)
		assert.ErrorIs(t, err, ErrInvalidColor, bad)
	}
}

func TestParseElement(t *testing.T) {
	e, err := ParseElement("services.3")
	require.NoError(t, err)
	assert.Equal(t, KindService, e.Kind)
	assert.Equal(t, 3, e.Index)
	assert.Equal(t, "services.3", e.String())

	e, err = ParseElement("logoImage")
	require.NoError(t, err)
	assert.Equal(t, KindImage, e.Kind)

	for _, bad := range []string{"services.", "services.-1", "footer", ""} {
		_, err := ParseElement(bad)
		assert.ErrorIs(t, err, ErrUnknownElement, bad)
	}
}

func TestCloneIsDeep(t *testing.T) {
	d := Default()
	d.Services = append(d.Services, NewService("Design", 0))
	c := d.Clone()
	c.Services[0].Text = "changed"
	c.DesignStyle.GradientColors[0] = "#000000"

	assert.Equal(t, "Design", d.Services[0].Text)
	assert.Equal(t, "#ffffff", d.DesignStyle.GradientColors[0])
}

func TestValidateReportsEveryProblem(t *testing.T) {
	d := Default()
	d.DesignStyle.Pattern = "stripes"
	d.DesignStyle.BackgroundGradient = true
	d.DesignStyle.GradientColors = []string{"#fff"}
	d.TextColor = "nope"
	d.ProfileImage.Style.Shape = "star"

	err := Validate(d)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	fields := map[string]bool{}
	for _, p := range verr.Problems {
		fields[p.Field] = true
	}
	assert.True(t, fields["designStyle.pattern"], verr.Error())
	assert.True(t, fields["designStyle.gradientColors"], verr.Error())
	assert.True(t, fields["textColor"], verr.Error())
	assert.True(t, fields["profileImage.style.shape"], verr.Error())
}

func TestValidateIgnoresOutOfRangeCoordinates(t *testing.T) {
	d := Default()
	d.Name.X = -500
	d.LogoImage.Y = 9000
	assert.NoError(t, Validate(d))
}

func TestDecodeDocumentFillsDefaultsAndIgnoresExtras(t *testing.T) {
	doc, err := DecodeDocument(strings.NewReader(`{
		"name": {"text": "Ivan", "x": 30},
		"qrCodeStyle": "modern1",
		"designStyle": {"pattern": "dots"}
	}`))
	require.NoError(t, err)

	assert.Equal(t, "Ivan", doc.Name.Text)
	assert.Equal(t, 30.0, doc.Name.X)
	assert.Equal(t, 50.0, doc.Name.Y)
	assert.Equal(t, DefaultFont, doc.Name.Font)
	assert.Equal(t, PatternDots, doc.DesignStyle.Pattern)
	assert.Equal(t, OverlayNone, doc.DesignStyle.Overlay)
	assert.Equal(t, "#ffffff", doc.BackgroundColor)
	assert.NotNil(t, doc.Services)
}

func TestLoadTemplatesFromDirSkipsBadFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ocean.json"), []byte(`{"backgroundColor":"#4a90e2"}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte(`{`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte(`hi`), 0o644))

	templates, skipped, err := LoadTemplatesFromDir(dir)
	require.NoError(t, err)
	require.Len(t, templates, 1)
	assert.Equal(t, "ocean", templates[0].Name)
	assert.Equal(t, "#4a90e2", templates[0].Document.BackgroundColor)
	assert.Contains(t, skipped, "broken.json")
}
