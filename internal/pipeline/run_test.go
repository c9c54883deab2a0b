package pipeline

import (
	"context"
	"errors"
	"os"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orastria/astrobook/internal/chart"
	"github.com/orastria/astrobook/internal/types"
)

type fakeCharts struct {
	overrides map[string]string
}

func (f *fakeCharts) ResolveChart(_ context.Context, _, _, _ string, overrides map[string]string) chart.Placements {
	f.overrides = overrides
	return chart.NewPlacements(map[string]string{chart.PointSun: "Sagittarius"})
}

type fakeContent struct {
	err error
	num types.Numerology
}

func (f *fakeContent) GenerateAll(_ context.Context, _ *types.Questionnaire, _ chart.Placements, num types.Numerology) (*types.BookContent, error) {
	f.num = num
	if f.err != nil {
		return nil, f.err
	}
	return types.NewBookContent(), nil
}

type fakeRenderer struct {
	err  error
	path string
}

func (f *fakeRenderer) Render(path string, _ *types.Questionnaire, _ chart.Placements, _ types.Numerology, _ *types.BookContent) error {
	f.path = path
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(path, []byte("%PDF-fake"), 0o644)
}

type fakeStore struct {
	err      error
	filename string
}

func (f *fakeStore) Upload(_ context.Context, _, filename string) (string, error) {
	f.filename = filename
	if f.err != nil {
		return "", f.err
	}
	return "https://bucket.example.com/" + filename, nil
}

func testRunner() (*Runner, *fakeCharts, *fakeContent, *fakeRenderer, *fakeStore) {
	charts := &fakeCharts{}
	content := &fakeContent{}
	renderer := &fakeRenderer{}
	store := &fakeStore{}
	return &Runner{Charts: charts, Content: content, Renderer: renderer, Storage: store},
		charts, content, renderer, store
}

func questionnaire() *types.Questionnaire {
	return &types.Questionnaire{
		Name:       "Maya Chen",
		BirthDate:  "1989-12-13",
		BirthPlace: "Austin, TX",
		ChartOverrides: map[string]string{
			chart.PointMoon: "Pisces",
		},
	}
}

func TestRun_Success(t *testing.T) {
	runner, charts, content, renderer, store := testRunner()

	var steps []string
	runner.OnProgress = func(e ProgressEvent) { steps = append(steps, e.Step) }

	res, err := runner.Run(context.Background(), questionnaire())
	require.NoError(t, err)

	assert.Equal(t, "Pisces", charts.overrides[chart.PointMoon])
	assert.Equal(t, "Sagittarius", res.Placements[chart.PointSun])
	assert.Equal(t, 7, res.Numerology.LifePath)
	assert.Equal(t, content.num, res.Numerology)

	assert.Regexp(t, `^orastria_Maya_Chen_[0-9a-f]{8}\.pdf$`, res.Filename)
	assert.Equal(t, res.Filename, store.filename)
	assert.Equal(t, "https://bucket.example.com/"+res.Filename, res.DownloadURL)

	assert.Equal(t, []string{"chart", "content", "render", "upload", "done"}, steps)

	// The rendered temp file is cleaned up after upload.
	_, statErr := os.Stat(renderer.path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunWithPlacements_SkipsChartResolution(t *testing.T) {
	runner, charts, _, _, _ := testRunner()

	res, err := runner.RunWithPlacements(context.Background(), questionnaire(), map[string]string{
		chart.PointSun: "Leo",
	})
	require.NoError(t, err)

	assert.Nil(t, charts.overrides, "ephemeris resolver should not be called")
	assert.Equal(t, "Leo", res.Placements[chart.PointSun])
	assert.Equal(t, "Aries", res.Placements[chart.PointMoon])
}

func TestRunLocal_RendersWithoutUpload(t *testing.T) {
	runner, _, _, renderer, store := testRunner()
	path := t.TempDir() + "/out.pdf"

	res, err := runner.RunLocal(context.Background(), questionnaire(), path)
	require.NoError(t, err)

	assert.Equal(t, "out.pdf", res.Filename)
	assert.Empty(t, res.DownloadURL)
	assert.Equal(t, path, renderer.path)
	assert.Empty(t, store.filename, "no upload should happen")

	_, statErr := os.Stat(path)
	assert.NoError(t, statErr, "local output is kept")
}

func TestRun_ContentError(t *testing.T) {
	runner, _, content, _, _ := testRunner()
	content.err = errors.New("model down")

	_, err := runner.Run(context.Background(), questionnaire())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "generating content")
}

func TestRun_RenderError(t *testing.T) {
	runner, _, _, renderer, _ := testRunner()
	renderer.err = errors.New("disk full")

	_, err := runner.Run(context.Background(), questionnaire())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rendering book")
}

func TestRun_UploadError(t *testing.T) {
	runner, _, _, _, store := testRunner()
	store.err = errors.New("denied")

	_, err := runner.Run(context.Background(), questionnaire())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "uploading book")
}

func TestRun_NoStorage(t *testing.T) {
	runner, _, _, _, _ := testRunner()
	runner.Storage = nil

	_, err := runner.Run(context.Background(), questionnaire())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage is not configured")
}

func TestSafeFilename(t *testing.T) {
	re := regexp.MustCompile(`^orastria_([A-Za-z0-9_]+)_[0-9a-f]{8}\.pdf$`)

	m := re.FindStringSubmatch(SafeFilename("Maya Chen"))
	require.NotNil(t, m)
	assert.Equal(t, "Maya_Chen", m[1])

	m = re.FindStringSubmatch(SafeFilename("J.R. O'Neill-Smith"))
	require.NotNil(t, m)
	assert.Equal(t, "JR_ONeillSmith", m[1])

	m = re.FindStringSubmatch(SafeFilename("~~~"))
	require.NotNil(t, m)
	assert.Equal(t, "Friend", m[1])
}
