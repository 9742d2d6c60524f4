package versionfile

import "os"

// Environment carries the CI variables that feed into the version file.
type Environment struct {
	CommitTag string // CI_COMMIT_TAG, set only for tag pipelines
	JobID     string // CI_JOB_ID
}

// DetectEnvironment reads the CI variables from the process environment.
// Outside CI both fields are empty and New applies local fallbacks.
func DetectEnvironment() Environment {
	return Environment{
		CommitTag: os.Getenv("CI_COMMIT_TAG"),
		JobID:     os.Getenv("CI_JOB_ID"),
	}
}

// IsCI reports whether the process runs under any CI system.
func IsCI() bool {
	return os.Getenv("CI") != ""
}

// IsGitLabCI reports whether the process runs in a GitLab CI job.
func IsGitLabCI() bool {
	return os.Getenv("GITLAB_CI") != ""
}

// gitlabVarNames are the predefined GitLab variables worth echoing into a
// build log for traceability.
var gitlabVarNames = []string{
	"CI_COMMIT_TAG",
	"CI_COMMIT_REF_NAME",
	"CI_COMMIT_SHORT_SHA",
	"CI_JOB_ID",
	"CI_PIPELINE_ID",
	"CI_PROJECT_PATH",
	"CI_RUNNER_DESCRIPTION",
}

// GitLabVars snapshots the GitLab CI variables that identify a build.
// Unset variables are omitted.
func GitLabVars() map[string]string {
	vars := make(map[string]string)
	for _, name := range gitlabVarNames {
		if v := os.Getenv(name); v != "" {
			vars[name] = v
		}
	}
	return vars
}
