package taskevent

// InvalidID marks an unset build coordinate.
const InvalidID int32 = -1

const numContextFields = 7

// BuildContext correlates an event with the build/target/task that produced
// it. Any coordinate may be InvalidID.
type BuildContext struct {
	SubmissionID      int32
	NodeID            int32
	EvaluationID      int32
	ProjectInstanceID int32
	ProjectContextID  int32
	TargetID          int32
	TaskID            int32
}

// fields returns the coordinates in wire order.
func (c *BuildContext) fields() [numContextFields]int32 {
	return [numContextFields]int32{
		c.SubmissionID,
		c.NodeID,
		c.EvaluationID,
		c.ProjectInstanceID,
		c.ProjectContextID,
		c.TargetID,
		c.TaskID,
	}
}

func contextFromFields(v [numContextFields]int32) BuildContext {
	return BuildContext{
		SubmissionID:      v[0],
		NodeID:            v[1],
		EvaluationID:      v[2],
		ProjectInstanceID: v[3],
		ProjectContextID:  v[4],
		TargetID:          v[5],
		TaskID:            v[6],
	}
}
