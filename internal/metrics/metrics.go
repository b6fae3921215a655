// Package metrics holds the Prometheus collectors of every factorcore component.
package metrics

const namespace = "factorcore"

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func orUnknown(label string) string {
	if label == "" {
		return "unknown"
	}
	return label
}
