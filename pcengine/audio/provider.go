package audio

// Provider is the host-facing audio surface: sample retrieval plus the
// channel mute/solo debugging controls.
type Provider interface {
	// TakeSamples releases one batch of signed 16-bit mono samples at
	// 44.1 kHz, or nil until a full batch has accumulated.
	TakeSamples() []int16

	SetBatchSize(n int)

	// Audio debugging controls

	ToggleChannel(channel int)
	SoloChannel(channel int)
	ChannelKeyOn(channel int) bool
}

var _ Provider = (*PSG)(nil)
