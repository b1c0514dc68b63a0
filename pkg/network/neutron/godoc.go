// Package neutron provides two backends for the neutron chain: a remote
// testnet (pion-1) that only needs a locally built neutrond for signing and
// querying, and a full local topology (test-1) of four processes: a
// neutron consumer chain, a gaia provider chain, the hermes IBC relayer
// linking them, and the neutron interchain-query relayer.
//
// Components build from source into the backend's state root on first
// initialize; later initializes resume from what is on disk.
package neutron
