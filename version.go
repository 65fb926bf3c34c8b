package chatapproval

// Version is overridden at build time with -ldflags "-X github.com/viant/chatapproval.Version=..."
var Version = "dev"

// ServiceName identifies the service in logs and traces
const ServiceName = "chatapproval"
