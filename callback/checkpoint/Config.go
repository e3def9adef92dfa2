package checkpoint

// Config describes a ModelCheckpoint
type Config struct {
	// Filename is the template of the file to save weights to, e.g.
	// "weights-{epoch:03d}-{val_loss:.4f}.bin". See ParseTemplate.
	Filename string `json:"filename" yaml:"filename"`

	// Monitor is the metric compared between epochs if SaveBestOnly
	// is set
	Monitor string `json:"monitor" yaml:"monitor"`

	Verbose bool `json:"verbose" yaml:"verbose"`

	// SaveBestOnly causes only the weights of the best epoch to be
	// saved, once training ends
	SaveBestOnly bool `json:"save_best_only" yaml:"save_best_only"`

	// Mode is either "min" or "max". It is only checked if SaveBestOnly
	// is set.
	Mode string `json:"mode" yaml:"mode"`

	// Period is the number of epochs between saves if SaveBestOnly is
	// not set
	Period int `json:"period" yaml:"period"`
}

// DefaultConfig returns a Config that saves to filename after every
// epoch, monitoring the validation loss
func DefaultConfig(filename string) Config {
	return Config{
		Filename: filename,
		Monitor:  "val_loss",
		Mode:     Min.String(),
		Period:   1,
	}
}
