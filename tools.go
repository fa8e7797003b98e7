//go:build tools

package tools

// mockery is used as an installed binary, so nothing is imported here.
// Regenerate pkg/actuator/mocks with:
//
//	mockery --name FlowActuator --dir pkg/actuator --output pkg/actuator/mocks --with-expecter
