// Package s3 uploads run artifacts to an S3 bucket.
//
// Only non-secret artifacts (the run report, the cluster store and the run
// log) are archived. Kubeconfigs, the cluster manager session and request
// bodies carrying cloud credentials never leave the run directory.
package s3
