// Package infra contains technical adapters such as the grid navigator,
// metrics exporters and the MQTT telemetry publisher. These packages should
// depend only on the interfaces defined in the core packages.
package infra
