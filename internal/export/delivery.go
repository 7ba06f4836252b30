package export

// Environment is what the presentation layer knows about where the
// export will be consumed.
type Environment struct {
	CanShareFiles bool // a native "share with file" capability exists
	SmallScreen   bool // the viewport is phone-sized
}

type Delivery int

const (
	DeliverDownload Delivery = iota
	DeliverShare
)

func (d Delivery) String() string {
	if d == DeliverShare {
		return "share"
	}
	return "download"
}

// Decide routes a result to the share sheet only on small screens that
// can share files; everything else downloads.
func Decide(env Environment) Delivery {
	if env.CanShareFiles && env.SmallScreen {
		return DeliverShare
	}
	return DeliverDownload
}
