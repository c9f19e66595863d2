package botplayground

// Version is the library version, overridable at build time with
// -ldflags "-X github.com/adamhockemeyer/BotPlayground-v4.Version=...".
var Version = "0.4.0"
