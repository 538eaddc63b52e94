package bartime

// Common note lengths, in quarter notes.
var (
	Zero = Int(0)

	OneHundredTwentyEighth = MustOf(1, 32)
	SixtyFourth            = MustOf(1, 16)
	ThirtySecond           = MustOf(1, 8)
	Sixteenth              = MustOf(1, 4)
	SixteenthDot           = MustOf(3, 8)
	SixteenthDoubleDot     = MustOf(7, 16)
	Eighth                 = MustOf(1, 2)
	EighthDot              = MustOf(3, 4)
	EighthDoubleDot        = MustOf(7, 8)
	Quarter                = Int(1)
	QuarterDot             = MustOf(3, 2)
	QuarterDoubleDot       = MustOf(7, 4)
	Half                   = Int(2)
	HalfDot                = Int(3)
	HalfDoubleDot          = MustOf(7, 2)
	Whole                  = Int(4)
	WholeDot               = Int(6)
	Breve                  = Int(8)
)
