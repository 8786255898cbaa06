package robot

var menu = []string{
	"Menu:",
	" press button 1 to go to hardware check state",
	" press button 2 to go to calibration state",
	" you can also use the following keys:",
	" press '1' to go to hardware check state",
	" press '2' to go to calibration state",
	" press 'l' to go to battery low state",
}

var waitMenu = watch{
	button1:  true,
	button2:  true,
	battery:  true,
	serial:   map[byte]Event{'1': Button1Pressed, '2': Button2Pressed, 'l': BatteryIsLow},
	complain: true,
}

func (c *Controller) idle() Event {
	c.hw.LED1.Set(true)
	c.hw.LED2.Set(false)
	c.announce(Idle, menu...)
	return c.waitFor(waitMenu)
}
