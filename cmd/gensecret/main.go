// Command gensecret prints random hex key suitable for SECRET_KEY.
// Key length matches HS512 block size
package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/pflag"
)

const SecretKeyBytesLen = 64

func main() {
	size := pflag.IntP("bytes", "b", SecretKeyBytesLen, "key length in bytes")
	pflag.Parse()

	if *size < 32 {
		fmt.Fprintln(os.Stderr, "key shorter than 32 bytes is too weak")
		os.Exit(1)
	}

	b := make([]byte, *size)

	_, err := rand.Read(b)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error while generating secret key: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(hex.EncodeToString(b))
}
