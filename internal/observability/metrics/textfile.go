package metrics

import "github.com/prometheus/client_golang/prometheus"

// WriteTextfile dumps the default registry in the node exporter textfile format.
func WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
