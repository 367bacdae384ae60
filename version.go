package arbor

// Version is the release of the library and the arbor command.
const Version = "0.4.0"
