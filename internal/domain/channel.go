package domain

// ChannelName identifies one of the two trigger subsystems.
type ChannelName string

const (
	ChannelIntrusive ChannelName = "intrusive"
	ChannelRegular   ChannelName = "regular"
)

func (c ChannelName) String() string {
	return string(c)
}

func (c ChannelName) IsIntrusive() bool {
	return c == ChannelIntrusive
}

// Permission is the notification permission state reported by a channel.
type Permission string

const (
	PermissionGranted      Permission = "granted"
	PermissionDenied       Permission = "denied"
	PermissionUndetermined Permission = "undetermined"
)
