/*
Package score loads YAML cue sheets and schedules them.

A score names a set of cues, each a one-shot, a repeat or a cron event:

	name: premiere
	time_scale: 1
	cues:
	  - name: house-lights
	    at: 2
	    message: dim the house
	  - name: pulse
	    kind: repeat
	    every_hz: 2
	    at: 4
	    until: 10
	  - name: chime
	    kind: cron
	    cron: "0/15 * * * * *"
	    until: 60

Times are seconds from the moment the score is applied and are stretched by
the scheduler's time scale; cron cues follow the wall clock. A repeat or
cron cue without until runs until cleared; until: 0 lets it fire only at the
moment the score is applied.

	sc, err := score.Load("premiere.yaml")
	if err != nil {
		return err
	}
	_, err = sc.Apply(s, func(cue score.Cue, now float64) error {
		fmt.Println(now, cue.Name, cue.Message)
		return nil
	})
*/
package score
