package live

// CaptureSource delivers microphone audio as frames of normalized float
// samples in the range [-1, 1]. Frames arrive sequentially in capture order.
type CaptureSource interface {
	Start(onFrame func(samples []float32)) error
	Close() error
}
