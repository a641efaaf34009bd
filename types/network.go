package types

// NetworkParams is the per-worker network parameter set handed to the trainer
// so that all tasks of one job can rendezvous for gradient exchange.
//
// The parameter set is a value object: it is computed once per job by the
// topology builder and passed by content into every task. Machines, TimeOut,
// and NumMachines are identical across all tasks of a job; only
// LocalListenPort differs per worker.
type NetworkParams struct {
	// Machines is the comma-joined "host:port" list of all participating
	// workers, in the same order for every worker of the job.
	Machines string `json:"machines"`

	// LocalListenPort is the port assigned to this worker.
	LocalListenPort int `json:"local_listen_port"`

	// TimeOut is the rendezvous timeout in minutes, enforced by the
	// trainer's own communication layer.
	TimeOut int `json:"time_out"`

	// NumMachines is the total number of participating workers.
	NumMachines int `json:"num_machines"`
}

// Merge returns a copy of params with the network parameters applied under
// the trainer's well-known keys. The input map is not modified.
func (p NetworkParams) Merge(params map[string]any) map[string]any {
	merged := make(map[string]any, len(params)+4)
	for k, v := range params {
		merged[k] = v
	}

	merged["machines"] = p.Machines
	merged["local_listen_port"] = p.LocalListenPort
	merged["time_out"] = p.TimeOut
	merged["num_machines"] = p.NumMachines

	return merged
}
