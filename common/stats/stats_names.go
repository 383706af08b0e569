package stats

/*
This file defines all the metrics being collected.   As new metrics are added please follow this pattern.
*/

const (
	/****************************** Scheduler Metrics ****************************************/
	/*
		the number of jobs accepted by Submit
	*/
	SchedSubmittedJobsCounter = "submittedJobsCounter"

	/*
		the number of jobs Submit rejected as an invalid job spec
	*/
	SchedRejectedJobsCounter = "rejectedJobsCounter"

	/*
		the number of jobs placed on a node
	*/
	SchedPlacedJobsCounter = "placedJobsCounter"

	/*
		the number of allocation attempts that found no node with room (the job is requeued)
	*/
	SchedDeferredJobsCounter = "deferredJobsCounter"

	/*
		the number of jobs dropped because no node could ever hold them
	*/
	SchedDroppedJobsCounter = "droppedJobsCounter"

	/*
		the number of jobs that ran to completion and released their resources
	*/
	SchedCompletedJobsCounter = "completedJobsCounter"

	/*
		the number of jobs waiting in the arrival queue at the end of a cycle
	*/
	SchedQueuedJobsGauge = "queuedJobsGauge"

	/*
		the number of jobs holding node resources at the end of a cycle
	*/
	SchedRunningJobsGauge = "runningJobsGauge"

	/*
		the last simulated day that ran to completion
	*/
	SchedDayGauge = "dayGauge"

	/*
		mean cpu utilization (percent) over all nodes at the end of a cycle
	*/
	SchedMeanCPUUtilizationGauge = "meanCpuUtilizationGauge"

	/*
		mean memory utilization (percent) over all nodes at the end of a cycle
	*/
	SchedMeanMemUtilizationGauge = "meanMemUtilizationGauge"

	/*
		distribution of the number of daily advancements a job waited in the queue before placement
	*/
	SchedQueueWaitDaysHistogram = "queueWaitDaysHistogram"

	/*
		the amount of time it takes to run one daily cycle
	*/
	SchedDailyCycleLatency_ms = "dailyCycleLatency_ms"

	/****************************** Simulator Metrics ****************************************/
	/*
		the number of per-day statistics files written
	*/
	SimStatsWrittenCounter = "statsWrittenCounter"

	/*
		the number of per-day statistics files that could not be written after retrying
	*/
	SimStatsWriteFailureCounter = "statsWriteFailureCounter"

	/*
		the number of jobs the generator produced
	*/
	SimGeneratedJobsCounter = "generatedJobsCounter"
)
