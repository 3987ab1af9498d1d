package config

// Version is the supported configuration file format version.
const Version = "0.2.0"
