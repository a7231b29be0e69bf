package config

func Development() bool {
	return envBool("DEVELOPMENT")
}
