package reconcile

// Desired-state values accepted by the resource reconcilers. Not every
// resource supports every state; each reconciler validates its own subset.
const (
	StatePresent   = "present"
	StateAbsent    = "absent"
	StateValidated = "validated"
	StateStarted   = "started"
	StateStopped   = "stopped"
	StateRestarted = "restarted"
	StateDeployed  = "deployed"
)

// EnvironmentChange records one environment action taken while reconciling
// a project's environment list.
type EnvironmentChange struct {
	Name   string `json:"name" yaml:"name"`
	Action string `json:"action" yaml:"action"`
}

// Result is the uniform outcome of one reconcile invocation. Changed is
// true iff a mutating call was issued, or would be issued in check mode.
type Result struct {
	Changed             bool                `json:"changed" yaml:"changed"`
	Msg                 string              `json:"msg" yaml:"msg"`
	UUID                string              `json:"uuid,omitempty" yaml:"uuid,omitempty"`
	Resource            map[string]any      `json:"resource,omitempty" yaml:"resource,omitempty"`
	ValidationResult    map[string]any      `json:"validation_result,omitempty" yaml:"validation_result,omitempty"`
	DeploymentUUID      string              `json:"deployment_uuid,omitempty" yaml:"deployment_uuid,omitempty"`
	Environments        []map[string]any    `json:"environments,omitempty" yaml:"environments,omitempty"`
	EnvironmentsChanged []EnvironmentChange `json:"environments_changed,omitempty" yaml:"environments_changed,omitempty"`
	Operation           string              `json:"operation,omitempty" yaml:"operation,omitempty"`
	Response            any                 `json:"response,omitempty" yaml:"response,omitempty"`
}
