package visualize

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/sguter90/anomalymaestro/pkg/models"
	"go.uber.org/zap"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// ContentType of rendered artifacts
const ContentType = "image/png"

// Artifact is an encoded chart plus the unique filename it should be hosted under
type Artifact struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Renderer draws detection results as time/value scatter plots
type Renderer struct {
	Width  vg.Length
	Height vg.Length

	logger *zap.Logger
}

var (
	normalStyle = draw.GlyphStyle{
		Color:  color.RGBA{R: 31, G: 119, B: 180, A: 255},
		Radius: vg.Points(3),
		Shape:  draw.CircleGlyph{},
	}
	anomalyStyle = draw.GlyphStyle{
		Color:  color.RGBA{R: 214, G: 39, B: 40, A: 255},
		Radius: vg.Points(6),
		Shape:  draw.CircleGlyph{},
	}
)

// NewRenderer creates a renderer producing 10x6 inch charts
func NewRenderer(logger *zap.Logger) *Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Renderer{
		Width:  10 * vg.Inch,
		Height: 6 * vg.Inch,
		logger: logger.Named("visualize"),
	}
}

// Partition splits the result into normal and anomalous readings, keeping order
func Partition(result models.DetectionResult) (normal, anomalous []models.ScoredReading) {
	for _, r := range result.Readings {
		if r.IsAnomaly {
			anomalous = append(anomalous, r)
		} else {
			normal = append(normal, r)
		}
	}
	return normal, anomalous
}

// Title returns the chart title for the result's parameter
func Title(p models.Parameter) string {
	return fmt.Sprintf("%s Anomaly Detection", p.Info().Label)
}

// Render draws result and encodes it as PNG
func (r *Renderer) Render(result models.DetectionResult) (Artifact, error) {
	if result.Len() == 0 {
		return Artifact{}, models.NewError(models.KindEmptyInput, "No readings to plot", nil)
	}

	info := result.Parameter.Info()
	normal, anomalous := Partition(result)

	p := plot.New()
	p.Title.Text = Title(result.Parameter)
	p.X.Label.Text = "Time"
	p.Y.Label.Text = axisLabel(info)
	p.X.Tick.Marker = plot.TimeTicks{Format: "01-02 15:04", Time: plot.UnixTimeIn(time.UTC)}
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	if err := addSeries(p, normal, result.Parameter, normalStyle); err != nil {
		return Artifact{}, fmt.Errorf("failed to plot normal readings: %w", err)
	}
	if err := addSeries(p, anomalous, result.Parameter, anomalyStyle); err != nil {
		return Artifact{}, fmt.Errorf("failed to plot anomalies: %w", err)
	}

	// Legend entries only need the glyph style, so both classes are listed even when one is empty
	p.Legend.Add("Normal", &plotter.Scatter{GlyphStyle: normalStyle})
	p.Legend.Add("Anomaly", &plotter.Scatter{GlyphStyle: anomalyStyle})

	w, err := p.WriterTo(r.Width, r.Height, "png")
	if err != nil {
		return Artifact{}, fmt.Errorf("failed to create png writer: %w", err)
	}

	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return Artifact{}, fmt.Errorf("failed to encode png: %w", err)
	}

	artifact := Artifact{
		Filename:    NewFilename(),
		ContentType: ContentType,
		Data:        buf.Bytes(),
	}

	r.logger.Debug("rendered chart",
		zap.String("filename", artifact.Filename),
		zap.Int("normal", len(normal)),
		zap.Int("anomalies", len(anomalous)),
		zap.Int("bytes", len(artifact.Data)),
	)

	return artifact, nil
}

// NewFilename returns a collision-resistant chart filename
func NewFilename() string {
	return fmt.Sprintf("anomalies_%s.png", uuid.New())
}

func addSeries(p *plot.Plot, readings []models.ScoredReading, param models.Parameter, style draw.GlyphStyle) error {
	if len(readings) == 0 {
		return nil
	}

	pts := make(plotter.XYs, len(readings))
	for i, r := range readings {
		pts[i].X = float64(r.Timestamp.Unix())
		pts[i].Y = r.Value(param)
	}

	s, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}
	s.GlyphStyle = style
	p.Add(s)
	return nil
}

func axisLabel(info models.ParameterInfo) string {
	if info.Unit == "" {
		return info.Label
	}
	return fmt.Sprintf("%s (%s)", info.Label, info.Unit)
}
