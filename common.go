package recognizer

import "github.com/golang/glog"

// Result is the recognition output for one test item, in the format
// written to results files.
type Result struct {
	ID     string `json:"id"`
	Ref    string `json:"ref,omitempty"`
	Hyp    string `json:"hyp"`
	Scores Scores `json:"scores"`
}

// Fatal logs the error and exits if err is not nil.
func Fatal(err error) {
	if err != nil {
		glog.Fatal(err)
	}
}
