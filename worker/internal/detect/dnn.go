package detect

import (
	"context"
	"fmt"
	"image"
	"log/slog"

	"gocv.io/x/gocv"
)

// Execution modes accepted by NewDNNCapability.
const (
	DeviceAuto = "auto"
	DeviceCPU  = "cpu"
	DeviceCUDA = "cuda"
)

// internalThreshold filters detection noise inside the capability.
// It is intentionally below any compliance threshold.
const internalThreshold = 0.25

// DNNCapability runs a DNN object detection model via OpenCV.
type DNNCapability struct {
	net    gocv.Net
	labels []string
	device string
	logger *slog.Logger
}

// NewDNNCapability loads the model and applies the requested execution
// mode. When CUDA is requested but unavailable, it falls back to CPU and
// logs a warning; processing continues on the default mode. This is the
// only silent policy override in the pipeline.
func NewDNNCapability(modelPath, configPath string, labels []string, device string, logger *slog.Logger) (*DNNCapability, error) {
	if logger == nil {
		logger = slog.Default()
	}

	net := gocv.ReadNet(modelPath, configPath)
	if net.Empty() {
		return nil, fmt.Errorf("failed to load detection model from %s", modelPath)
	}

	c := &DNNCapability{
		net:    net,
		labels: labels,
		logger: logger,
	}
	c.device = c.applyDevice(device)
	logger.Info("detection model loaded",
		slog.String("model", modelPath),
		slog.String("device", c.device),
	)
	return c, nil
}

// applyDevice configures the network backend/target for the requested
// mode and returns the mode actually in effect.
func (c *DNNCapability) applyDevice(requested string) string {
	switch requested {
	case DeviceCUDA, DeviceAuto, "":
		if requested != DeviceCPU {
			errBackend := c.net.SetPreferableBackend(gocv.NetBackendCUDA)
			errTarget := c.net.SetPreferableTarget(gocv.NetTargetCUDA)
			if errBackend == nil && errTarget == nil {
				return DeviceCUDA
			}
			if requested == DeviceCUDA {
				c.logger.Warn("CUDA requested but not available, falling back to CPU")
			}
		}
	case DeviceCPU:
	default:
		c.logger.Warn("unknown execution mode, falling back to CPU", slog.String("device", requested))
	}

	// Default mode.
	if err := c.net.SetPreferableBackend(gocv.NetBackendDefault); err != nil {
		c.logger.Warn("failed to set default backend", slog.String("error", err.Error()))
	}
	if err := c.net.SetPreferableTarget(gocv.NetTargetCPU); err != nil {
		c.logger.Warn("failed to set CPU target", slog.String("error", err.Error()))
	}
	return DeviceCPU
}

// Device reports the execution mode in effect after fallback.
func (c *DNNCapability) Device() string {
	return c.device
}

// Detect runs the model on one image and returns raw detections above the
// capability's internal threshold.
func (c *DNNCapability) Detect(ctx context.Context, imageBytes []byte) ([]Detection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mat, err := gocv.IMDecode(imageBytes, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	defer mat.Close()

	if mat.Empty() {
		return nil, fmt.Errorf("decoded image is empty")
	}

	blob := gocv.BlobFromImage(mat, 1.0/255.0, image.Pt(640, 640), gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	c.net.SetInput(blob, "")

	output := c.net.Forward("")
	defer output.Close()

	// SSD-style rows: [batch, classID, confidence, x1, y1, x2, y2]
	reshaped := output.Reshape(1, output.Total()/7)
	defer reshaped.Close()

	var dets []Detection
	for i := 0; i < reshaped.Rows(); i++ {
		confidence := float64(reshaped.GetFloatAt(i, 2))
		if confidence < internalThreshold {
			continue
		}
		classID := int(reshaped.GetFloatAt(i, 1))
		if classID < 0 || classID >= len(c.labels) {
			continue
		}
		dets = append(dets, Detection{
			Label:      c.labels[classID],
			Confidence: confidence,
		})
	}
	return dets, nil
}

// Close releases the underlying network.
func (c *DNNCapability) Close() error {
	return c.net.Close()
}
