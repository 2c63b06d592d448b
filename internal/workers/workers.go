package workers

import "context"

type Workers struct {
	jobs []Job
}

func New(jobs ...Job) *Workers {
	return &Workers{jobs: jobs}
}

func (w *Workers) Start(ctx context.Context) {
	for _, job := range w.jobs {
		job.Start(ctx)
	}
}

// Stop shuts the jobs down in reverse start order.
func (w *Workers) Stop() {
	for i := len(w.jobs) - 1; i >= 0; i-- {
		w.jobs[i].Stop()
	}
}
