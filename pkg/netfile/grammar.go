package netfile

// GnetFile is the root of a parsed netfile: a single NETWORK block
// listing devices, then connections, then monitors, in that order.
type GnetFile struct {
	Network *NetworkBlock `@@`
}

// NetworkBlock holds the three sections a netfile always carries, in
// the fixed order devices / connections / monitors.
type NetworkBlock struct {
	Devices     *DevicesBlock     `KwNetwork LBrace @@`
	Connections *ConnectionsBlock `@@`
	Monitors    *MonitorsBlock    `@@ RBrace`
}

// DevicesBlock lists every device declaration.
type DevicesBlock struct {
	Devices []*DeviceDecl `KwDevices LBrace @@* RBrace`
}

// DeviceDecl is one flattened device record: a name, a kind tag
// spelled exactly as network.Kind.String() renders it, and an
// optional parameter (switch level, clock period, or gate arity).
type DeviceDecl struct {
	Name  string `KwDevice @Ident`
	Kind  string `KwKind Equals @Ident`
	Param *int   `( KwParam Equals @Integer )? Semicolon`
}

// ConnectionsBlock lists every driver assignment.
type ConnectionsBlock struct {
	Links []*LinkDecl `KwConnections LBrace @@* RBrace`
}

// LinkDecl is one `LINK src[.pin] -> dst.pin;` record.
type LinkDecl struct {
	SrcDevice string  `KwLink @Ident`
	SrcPin    *string `( Dot @Ident )?`
	DstDevice string  `Arrow @Ident`
	DstPin    *string `( Dot @Ident )? Semicolon`
}

// MonitorsBlock lists every monitor point.
type MonitorsBlock struct {
	Watches []*WatchDecl `KwMonitors LBrace @@* RBrace`
}

// WatchDecl is one `WATCH dev[.pin];` record.
type WatchDecl struct {
	Device string  `KwWatch @Ident`
	Pin    *string `( Dot @Ident )? Semicolon`
}
