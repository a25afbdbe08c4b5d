/*
Package ratelimit provides rate limiting measured on logical clock time.

  - bucket: Token bucket limiter whose refill is driven by the caller's clock

Limiters take the current time as an argument instead of reading the host
clock, so a limiter attached to a manual clock behaves identically on every
run and one attached to a relayed clock follows the remote timeline:

	lim, _ := bucket.NewSafe(20, 1) // 20 events per logical second
	clk.OnTick(func(now float64) {
		if lim.AllowAt(now) {
			publish(now)
		}
	})
*/
package ratelimit
