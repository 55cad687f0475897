// Package simdevice is an in-process implementation of the device-side
// contracts: buffers as assets, one memory arena per commitment category,
// sequentially numbered fences, and a command list as the encode target.
// It exists to give the CLI and the integration tests a real collaborator
// to run plans against; it does not model hardware.
package simdevice
