// Package batch drives the generator over every (identifier, camera,
// keyframe) combination of a job.
//
// A run has three phases:
//  1. Resolve: collect identifier strings from the job (inline, list files,
//     indexed mesh directories), apply exclusions and intersections, and
//     parse them. Any invalid identifier fails the run before work starts.
//     Indexed meshes whose identifier has no output directory are skipped.
//  2. Plan: derive one Task per combination with its input image and
//     output asset path.
//  3. Execute: skip tasks whose output already exists and run the rest
//     through a bounded worker pool. The first failure cancels the run.
package batch
