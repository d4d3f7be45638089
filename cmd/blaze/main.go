package main

import "github.com/Blaze-UpdateZ/Crunchyroll-AniList-API/cli"

func main() {
	cli.Execute()
}
