package callback

import "github.com/pkg/errors"

// List dispatches each hook to every Callback in the List that
// implements it, in order. Dispatch stops at the first error.
type List []Callback

// OnTrainBegin calls OnTrainBegin on each TrainBeginner in the List
func (l List) OnTrainBegin(m Model) error {
	for i, c := range l {
		if cb, ok := c.(TrainBeginner); ok {
			if err := cb.OnTrainBegin(m); err != nil {
				return errors.Wrapf(err, "ontrainbegin: callback %d (%T)",
					i, c)
			}
		}
	}
	return nil
}

// OnEpochBegin calls OnEpochBegin on each EpochBeginner in the List
func (l List) OnEpochBegin(m Model, epoch int) error {
	for i, c := range l {
		if cb, ok := c.(EpochBeginner); ok {
			if err := cb.OnEpochBegin(m, epoch); err != nil {
				return errors.Wrapf(err, "onepochbegin: callback %d (%T)",
					i, c)
			}
		}
	}
	return nil
}

// OnEpochEnd calls OnEpochEnd on each EpochEnder in the List
func (l List) OnEpochEnd(m Model, epoch int, logs Logs) error {
	for i, c := range l {
		if cb, ok := c.(EpochEnder); ok {
			if err := cb.OnEpochEnd(m, epoch, logs); err != nil {
				return errors.Wrapf(err, "onepochend: callback %d (%T)",
					i, c)
			}
		}
	}
	return nil
}

// OnTrainEnd calls OnTrainEnd on each TrainEnder in the List
func (l List) OnTrainEnd(m Model, logs Logs) error {
	for i, c := range l {
		if cb, ok := c.(TrainEnder); ok {
			if err := cb.OnTrainEnd(m, logs); err != nil {
				return errors.Wrapf(err, "ontrainend: callback %d (%T)",
					i, c)
			}
		}
	}
	return nil
}
