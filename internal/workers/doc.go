/*
Package workers derives default worker-pool sizes from the CPUs actually
available to the process.

Transcoding is CPU-bound native work, so pool sizes track GOMAXPROCS rather
than runtime.NumCPU: in containers with cgroup CPU limits, GOMAXPROCS (Go
1.19+) reflects the limit while NumCPU still reports the host. Sizing pools
off the host count leads to throttling and memory pressure once several
ffmpeg processes pile up on a two-core limit.

The returned counts are only defaults; the configuration layer lets
operators pin exact pool sizes via MAX_CONCURRENT_IMAGE_JOBS and
MAX_CONCURRENT_VIDEO_JOBS.
*/
package workers
