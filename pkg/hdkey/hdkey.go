package hdkey

import (
	"bytes"
	"crypto/hmac"
	"encoding/binary"
	"errors"
	"hash"
	"math/big"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
)

var (
	// ErrNullDerivationPath ...
	ErrNullDerivationPath = errors.New("derivation path must not be null")
	// ErrMalformedDerivationPath ...
	ErrMalformedDerivationPath = errors.New(
		"path must not start or end with a '/' and " +
			"can optionally start with 'm/' or 'M/'",
	)
	// ErrNullHashFunction ...
	ErrNullHashFunction = errors.New("sha256 and sha512 implementations are required")
	// ErrInvalidSeedLength ...
	ErrInvalidSeedLength = errors.New("seed length must be in range [16, 64] bytes")
	// ErrUnusableSeed is returned when a seed derives an invalid master key.
	ErrUnusableSeed = errors.New("seed derives an invalid master private key")
)

// masterKeySalt is the HMAC key of BIP32 master node derivation.
var masterKeySalt = []byte("Bitcoin seed")

// Crypto holds the hash functions used for derivation and encoding.
type Crypto struct {
	Sha256 func() hash.Hash
	Sha512 func() hash.Hash
}

func (c Crypto) validate() error {
	if c.Sha256 == nil || c.Sha512 == nil {
		return ErrNullHashFunction
	}
	return nil
}

// Node is an HD private node.
type Node struct {
	PrivateKey        []byte
	ChainCode         []byte
	Depth             uint8
	ParentFingerprint uint32
	ChildIndex        uint32
}

// DeriveMasterNode derives the master node of seed. If assumeValid is set the
// derived private key is not checked against the curve order, which saves
// work for seeds known to be good.
func DeriveMasterNode(seed []byte, assumeValid bool, crypto Crypto) (*Node, error) {
	if err := crypto.validate(); err != nil {
		return nil, err
	}
	if len(seed) < hdkeychain.MinSeedBytes || len(seed) > hdkeychain.MaxSeedBytes {
		return nil, ErrInvalidSeedLength
	}

	mac := hmac.New(crypto.Sha512, masterKeySalt)
	mac.Write(seed)
	sum := mac.Sum(nil)

	privateKey, chainCode := sum[:32], sum[32:]
	if !assumeValid {
		k := new(big.Int).SetBytes(privateKey)
		if k.Sign() == 0 || k.Cmp(btcec.S256().N) >= 0 {
			return nil, ErrUnusableSeed
		}
	}

	return &Node{PrivateKey: privateKey, ChainCode: chainCode}, nil
}

// EncodePrivateKey serializes node as a base58check extended private key for
// the given network (xprv... on mainnet).
func EncodePrivateKey(node *Node, net *chaincfg.Params, crypto Crypto) (string, error) {
	if err := crypto.validate(); err != nil {
		return "", err
	}

	payload := bytes.NewBuffer(make([]byte, 0, 82))
	payload.Write(net.HDPrivateKeyID[:])
	payload.WriteByte(node.Depth)
	binary.Write(payload, binary.BigEndian, node.ParentFingerprint)
	binary.Write(payload, binary.BigEndian, node.ChildIndex)
	payload.Write(node.ChainCode)
	payload.WriteByte(0x00)
	payload.Write(paddedKey(node.PrivateKey))

	first := crypto.Sha256()
	first.Write(payload.Bytes())
	second := crypto.Sha256()
	second.Write(first.Sum(nil))
	checksum := second.Sum(nil)[:4]

	payload.Write(checksum)
	return base58.Encode(payload.Bytes()), nil
}

// ExtendedKey returns node as a hdkeychain extended key for net.
func (n *Node) ExtendedKey(net *chaincfg.Params) *hdkeychain.ExtendedKey {
	parentFP := make([]byte, 4)
	binary.BigEndian.PutUint32(parentFP, n.ParentFingerprint)
	return hdkeychain.NewExtendedKey(
		net.HDPrivateKeyID[:], n.PrivateKey, n.ChainCode, parentFP,
		n.Depth, n.ChildIndex, true,
	)
}

// DeriveKey decodes an encoded extended key (private or public) and derives
// the node at path. Hardened components require a private key.
func DeriveKey(encoded string, path DerivationPath) (*hdkeychain.ExtendedKey, error) {
	key, err := hdkeychain.NewKeyFromString(encoded)
	if err != nil {
		return nil, err
	}
	for _, step := range path {
		key, err = key.Derive(step)
		if err != nil {
			return nil, err
		}
	}
	return key, nil
}

// DerivePublicKey returns the compressed public key of the node at path.
func DerivePublicKey(encoded string, path DerivationPath) ([]byte, error) {
	key, err := DeriveKey(encoded, path)
	if err != nil {
		return nil, err
	}
	pubkey, err := key.ECPubKey()
	if err != nil {
		return nil, err
	}
	return pubkey.SerializeCompressed(), nil
}

// DerivePrivateKey returns the raw private key of the node at path.
func DerivePrivateKey(encoded string, path DerivationPath) ([]byte, error) {
	key, err := DeriveKey(encoded, path)
	if err != nil {
		return nil, err
	}
	privkey, err := key.ECPrivKey()
	if err != nil {
		return nil, err
	}
	return privkey.Serialize(), nil
}

func paddedKey(key []byte) []byte {
	if len(key) >= 32 {
		return key
	}
	padded := make([]byte, 32)
	copy(padded[32-len(key):], key)
	return padded
}
