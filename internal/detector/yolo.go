package detector

import (
	"fmt"
	"image"
	"os"
	"runtime"
	"sync"

	"github.com/disintegration/imaging"
	ort "github.com/yalue/onnxruntime_go"
	"gocv.io/x/gocv"

	"github.com/ayusman/rpsref/internal/game"
)

// YOLODetector runs a YOLO-style ONNX export through ONNX Runtime.
type YOLODetector struct {
	config  Config
	session *ort.AdvancedSession
	input   *ort.Tensor[float32]
	output  *ort.Tensor[float32]
	mu      sync.Mutex
}

// NewYOLODetector loads the model and prepares the inference session. The
// ONNX Runtime environment is initialized on first use.
func NewYOLODetector(config Config) (*YOLODetector, error) {
	defaults := DefaultConfig()
	if config.InputSize <= 0 {
		config.InputSize = defaults.InputSize
	}
	if config.Anchors <= 0 {
		config.Anchors = defaults.Anchors
	}
	if len(config.Labels) == 0 {
		config.Labels = defaults.Labels
	}
	if config.IoUThreshold <= 0 {
		config.IoUThreshold = defaults.IoUThreshold
	}

	if _, err := os.Stat(config.ModelPath); err != nil {
		return nil, fmt.Errorf("model %s: %w", config.ModelPath, err)
	}

	if !ort.IsInitialized() {
		if config.SharedLibraryPath != "" {
			ort.SetSharedLibraryPath(config.SharedLibraryPath)
		}
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, fmt.Errorf("initialize onnxruntime: %w", err)
		}
	}

	options, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("create session options: %w", err)
	}
	defer options.Destroy()

	options.SetIntraOpNumThreads(runtime.NumCPU())

	size := int64(config.InputSize)
	input, err := ort.NewEmptyTensor[float32](ort.NewShape(1, 3, size, size))
	if err != nil {
		return nil, fmt.Errorf("create input tensor: %w", err)
	}

	channels := int64(4 + len(config.Labels))
	output, err := ort.NewEmptyTensor[float32](ort.NewShape(1, channels, int64(config.Anchors)))
	if err != nil {
		input.Destroy()
		return nil, fmt.Errorf("create output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(
		config.ModelPath,
		[]string{"images"},
		[]string{"output0"},
		[]ort.ArbitraryTensor{input},
		[]ort.ArbitraryTensor{output},
		options,
	)
	if err != nil {
		input.Destroy()
		output.Destroy()
		return nil, fmt.Errorf("create session: %w", err)
	}

	return &YOLODetector{
		config:  config,
		session: session,
		input:   input,
		output:  output,
	}, nil
}

// Detect runs inference on a BGR frame.
func (d *YOLODetector) Detect(frame *gocv.Mat) ([]game.Detection, error) {
	if frame == nil || frame.Empty() {
		return nil, nil
	}

	img, err := frame.ToImage()
	if err != nil {
		return nil, fmt.Errorf("convert frame: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.session == nil {
		return nil, fmt.Errorf("detector is closed")
	}

	resized := imaging.Resize(img, d.config.InputSize, d.config.InputSize, imaging.Linear)
	fillCHW(d.input.GetData(), resized)

	if err := d.session.Run(); err != nil {
		return nil, fmt.Errorf("model inference: %w", err)
	}

	cands, err := Decode(
		d.output.GetData(),
		len(d.config.Labels),
		d.config.Anchors,
		d.config.InputSize,
		frame.Cols(),
		frame.Rows(),
		d.config.MinConfidence,
	)
	if err != nil {
		return nil, fmt.Errorf("process predictions: %w", err)
	}

	return ToDetections(NMS(cands, d.config.IoUThreshold), d.config.Labels), nil
}

// Close destroys the session and its tensors.
func (d *YOLODetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.session != nil {
		d.session.Destroy()
		d.session = nil
	}
	if d.input != nil {
		d.input.Destroy()
		d.input = nil
	}
	if d.output != nil {
		d.output.Destroy()
		d.output = nil
	}
	return nil
}

// fillCHW writes img into buf as planar RGB scaled to [0, 1].
func fillCHW(buf []float32, img *image.NRGBA) {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	plane := w * h
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride:]
		for x := 0; x < w; x++ {
			i := y*w + x
			buf[i] = float32(row[x*4]) / 255.0
			buf[plane+i] = float32(row[x*4+1]) / 255.0
			buf[2*plane+i] = float32(row[x*4+2]) / 255.0
		}
	}
}
