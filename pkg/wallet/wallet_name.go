package wallet

// WalletName returns a deterministic name for the descriptor pair: the
// checksum of the public receive descriptor followed by the checksum of the
// public change descriptor. Secret and public forms of the same descriptors
// yield the same name. The change descriptor is optional.
func WalletName(receive, change string) (string, error) {
	name, err := publicChecksum(receive)
	if err != nil {
		return "", err
	}
	if change == "" {
		return name, nil
	}

	changeChecksum, err := publicChecksum(change)
	if err != nil {
		return "", err
	}
	return name + changeChecksum, nil
}

func publicChecksum(desc string) (string, error) {
	d, err := ParseDescriptor(desc)
	if err != nil {
		return "", err
	}
	pub, err := d.Public()
	if err != nil {
		return "", err
	}
	return pub.Checksum()
}

// PublicDescriptor returns the public form of the given descriptor, with its
// checksum.
func PublicDescriptor(desc string) (string, error) {
	d, err := ParseDescriptor(desc)
	if err != nil {
		return "", err
	}
	pub, err := d.Public()
	if err != nil {
		return "", err
	}
	return pub.StringWithChecksum()
}
