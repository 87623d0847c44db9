package core

import "time"

var timeNow = time.Now
