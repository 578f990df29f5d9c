package forecast

import (
	"fmt"
	"runtime"

	ort "github.com/yalue/onnxruntime_go"
)

// Quantiles is the model output: predicted follower return quantiles
// over the model's horizon.
type Quantiles struct {
	Q10 float32
	Q50 float32
	Q90 float32
}

// Model wraps an ONNX session that maps a feature window to return
// quantiles.
type Model struct {
	session   *ort.AdvancedSession
	input     *ort.Tensor[float32]
	output    *ort.Tensor[float32]
	available bool
}

// InitializeRuntime points onnxruntime_go at the shared library for
// the current platform. Safe to call more than once.
func InitializeRuntime() error {
	libPath := "/usr/lib/libonnxruntime.so"
	if runtime.GOOS == "windows" {
		libPath = "onnxruntime.dll"
	} else if runtime.GOOS == "darwin" {
		libPath = "libonnxruntime.dylib"
	}
	ort.SetSharedLibraryPath(libPath)
	return ort.InitializeEnvironment()
}

func NewModel(modelPath string) (*Model, error) {
	_ = InitializeRuntime()

	inputShape := ort.NewShape(1, Frames, FrameFeatures)
	inputData := make([]float32, Frames*FrameFeatures)
	inputTensor, err := ort.NewTensor(inputShape, inputData)
	if err != nil {
		return nil, fmt.Errorf("forecast: create input tensor: %w", err)
	}

	outputShape := ort.NewShape(1, 3)
	outputTensor, err := ort.NewEmptyTensor[float32](outputShape)
	if err != nil {
		inputTensor.Destroy()
		return nil, fmt.Errorf("forecast: create output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(modelPath,
		[]string{"input"}, []string{"output"},
		[]ort.Value{inputTensor}, []ort.Value{outputTensor}, nil)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, fmt.Errorf("forecast: create session: %w", err)
	}

	return &Model{
		session:   session,
		input:     inputTensor,
		output:    outputTensor,
		available: true,
	}, nil
}

// Predict runs the session over a flattened window (see
// Window.Flatten) and returns the [q10, q50, q90] return quantiles.
func (m *Model) Predict(features []float32) (Quantiles, error) {
	if !m.available {
		return Quantiles{}, fmt.Errorf("forecast: model not available")
	}
	if len(features) != Frames*FrameFeatures {
		return Quantiles{}, fmt.Errorf("forecast: want %d features, got %d", Frames*FrameFeatures, len(features))
	}

	copy(m.input.GetData(), features)
	if err := m.session.Run(); err != nil {
		return Quantiles{}, fmt.Errorf("forecast: inference failed: %w", err)
	}

	out := m.output.GetData()
	return Quantiles{Q10: out[0], Q50: out[1], Q90: out[2]}, nil
}

func (m *Model) Close() {
	if m.session != nil {
		m.session.Destroy()
	}
	if m.input != nil {
		m.input.Destroy()
	}
	if m.output != nil {
		m.output.Destroy()
	}
}
