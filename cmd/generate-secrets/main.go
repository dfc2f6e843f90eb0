package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/skyline/air-reservation/internal/utils"
)

func main() {
	codeOnly := flag.Bool("code-only", false, "only generate a staff registration code")
	flag.Parse()

	fmt.Println("===========================================")
	fmt.Println("Secret Generator for Airline Reservation")
	fmt.Println("===========================================")
	fmt.Println()

	if !*codeOnly {
		jwtSecret, err := utils.GenerateSecret(32)
		if err != nil {
			log.Fatalf("Failed to generate JWT secret: %v", err)
		}
		passSecret, err := utils.GenerateSecret(32)
		if err != nil {
			log.Fatalf("Failed to generate boarding pass secret: %v", err)
		}

		fmt.Println("Add these to your .env file:")
		fmt.Println()
		fmt.Printf("JWT_SECRET=%s\n", jwtSecret)
		fmt.Printf("BOARDING_PASS_SECRET=%s\n", passSecret)
		fmt.Println()
	}

	code, hash, err := utils.GenerateRegistrationCode()
	if err != nil {
		log.Fatalf("Failed to generate registration code: %v", err)
	}

	fmt.Println("Staff registration code (hand this to the airline):")
	fmt.Printf("  %s\n", code)
	fmt.Println("Hash to store on the airline row:")
	fmt.Printf("  %s\n", hash)
	fmt.Println()
	fmt.Println("Provision it with: migrate -airline <NAME> -reg-hash " + hash)
	fmt.Println()
	fmt.Println("IMPORTANT: Keep these secrets safe and never commit them to version control!")
	fmt.Println("===========================================")
}
