/*
package server provides StatefulScheduler which places simulated batch jobs on a fixed pool of nodes,
one simulated day at a time.

* Concepts *
Node:
  A fixed pool of cores and memory. Nodes are created once, fully available, and never removed.
  Availability only goes down when a job is placed and only goes up when a placed job is released.

Arrival Queue:
  Jobs accepted by Submit that have not been placed. FIFO by submission order.

Scheduling Policy:
  fcfs  keeps the arrival order.
  sjf   ascending by footprint score, by default ExecutionTime * CoresRequired * MemoryRequired.
  sdf   ascending by ExecutionTime.
  All orderings are stable, jobs with equal keys keep their arrival order.

Fit Policy:
  first  the lowest id node with room.
  best   the node with the smallest leftover (spare cores + spare memory after placement).
  worst  the node with the largest leftover.
  Ties go to the lowest node id.

* Logic *
Daily Cycle:
  Drain the arrival queue and order it with the scheduling policy.
  Place each job in order with the fit policy:
    placed               the job holds its cores and memory until it completes.
    NoCapacityAvailable  the job is requeued ahead of later arrivals, deferred jobs keep their arrival order.
    Unsatisfiable        no node could ever hold the job, it is dropped and reported.
  Advance every running job by one day, releasing the resources of jobs that reach zero remaining time.
  Record per node utilization for the day.
*/
package server
