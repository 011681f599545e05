package main

import (
	"fmt"

	"rykeshell/colors"
)

// printBanner writes the startup splash to stdout.
func printBanner() {
	fmt.Print(colors.BoldBlue)
	fmt.Println(` __________          __              _________.__             .__   .__`)
	fmt.Println(` \______   \ ___.__.|  | __  ____   /   _____/|  |__    ____  |  |  |  |`)
	fmt.Println(`  |       _/<   |  ||  |/ /_/ __ \  \_____  \ |  |  \ _/ __ \ |  |  |  |`)
	fmt.Println(`  |    |   \ \___  ||    < \  ___/  /        \|   Y  \\  ___/ |  |__|  |__`)
	fmt.Println(`  |____|_  / / ____||__|_ \ \___  >/_______  /|___|  / \___  >|____/|____/`)
	fmt.Println(`         \/  \/          \/     \/         \/      \/      \/`)
	fmt.Println(colors.Reset)
}
