package common

import "sync"

type Job func() error

// JobQueue runs jobs one by one on a single background worker, so that slow side work (such as saving captures
// on an SD card) doesn't delay the caller.
type JobQueue struct {
	jobsChannel chan Job
	stopChannel chan struct{}
	stopOnce    sync.Once
	waitGroup   sync.WaitGroup
	logger      Logger
}

func NewJobQueue(logger Logger) *JobQueue {
	worker := &JobQueue{
		jobsChannel: make(chan Job, 128),
		stopChannel: make(chan struct{}),
		logger:      logger,
	}
	worker.waitGroup.Add(1)
	go worker.run()
	return worker
}

func (j *JobQueue) Enqueue(job Job) {
	j.jobsChannel <- job
}

// Stop finishes the jobs already enqueued and stops the worker. Safe to call more than once.
func (j *JobQueue) Stop() {
	j.stopOnce.Do(func() {
		close(j.stopChannel)
	})
	j.waitGroup.Wait()
}

func (j *JobQueue) run() {
	defer j.waitGroup.Done()
	for {
		select {
		case job := <-j.jobsChannel:
			j.process(job)
		case <-j.stopChannel:
			for {
				select {
				case job := <-j.jobsChannel:
					j.process(job)
				default:
					return
				}
			}
		}
	}
}

func (j *JobQueue) process(job Job) {
	err := job()
	if err != nil {
		j.logger.Error("failed to process a job", err)
	}
}
