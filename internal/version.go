package internal

// Version is the lingohop release version
const Version = "0.4.0"
